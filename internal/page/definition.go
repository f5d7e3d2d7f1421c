package page

import (
	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/testcontext"
)

// Definition is the page under test: it lends its driver and the scenario
// context to the interactor bound to it.
type Definition interface {
	Driver() output.DriverPort
	Context() *testcontext.Context
}

// BaseDefinition is embedded by concrete page definitions.
type BaseDefinition struct {
	driver output.DriverPort
	tc     *testcontext.Context
}

var _ Definition = BaseDefinition{}

func NewBaseDefinition(driver output.DriverPort, tc *testcontext.Context) BaseDefinition {
	return BaseDefinition{driver: driver, tc: tc}
}

func (d BaseDefinition) Driver() output.DriverPort {
	return d.driver
}

func (d BaseDefinition) Context() *testcontext.Context {
	return d.tc
}
