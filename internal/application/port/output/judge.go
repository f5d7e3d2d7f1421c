package output

import (
	"context"

	"pagekit/internal/domain/entity"
)

type JudgePort interface {
	Judge(ctx context.Context, check entity.VisualCheck) (*entity.Verdict, error)
}
