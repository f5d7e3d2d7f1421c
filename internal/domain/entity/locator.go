package entity

import "fmt"

type LocatorStrategy string

const (
	StrategyCSS   LocatorStrategy = "css"
	StrategyXPath LocatorStrategy = "xpath"
	StrategyID    LocatorStrategy = "id"
)

// Locator describes how to find an element on the current page.
type Locator struct {
	Strategy LocatorStrategy
	Value    string
}

func ByCSS(selector string) Locator {
	return Locator{Strategy: StrategyCSS, Value: selector}
}

func ByXPath(expr string) Locator {
	return Locator{Strategy: StrategyXPath, Value: expr}
}

func ByID(id string) Locator {
	return Locator{Strategy: StrategyID, Value: id}
}

// CSS returns a CSS selector for css and id locators. XPath locators have none.
func (l Locator) CSS() (string, bool) {
	switch l.Strategy {
	case StrategyCSS:
		return l.Value, true
	case StrategyID:
		return "#" + cssEscapeIdent(l.Value), true
	default:
		return "", false
	}
}

func (l Locator) String() string {
	return fmt.Sprintf("By.%s: %s", l.Strategy, l.Value)
}

func cssEscapeIdent(s string) string {
	out := make([]rune, 0, len(s))
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_', r >= 0x80:
			out = append(out, r)
		case r >= '0' && r <= '9':
			if i == 0 {
				out = append(out, []rune(fmt.Sprintf(`\3%c `, r))...)
				continue
			}
			out = append(out, r)
		default:
			out = append(out, '\\', r)
		}
	}
	return string(out)
}
