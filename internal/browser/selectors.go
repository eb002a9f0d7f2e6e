package browser

import "fmt"

// tableReadyExpression is truthy once the first table has a header and a data row
const tableReadyExpression = `(() => {
	const table = document.querySelector('table');
	if (!table) return false;
	return table.querySelectorAll('tr').length >= 2;
})()`

// buttonNamed matches the first button whose label contains name, including
// <input type="button"> and submit inputs
func buttonNamed(name string) string {
	lit := xpathLiteral(name)
	return fmt.Sprintf(`(//*[self::button or @role="button"][contains(normalize-space(.), %s)]`+
		` | //input[@type="button" or @type="submit"][contains(@value, %s)])[1]`, lit, lit)
}

func buttonContaining(text string) string {
	return fmt.Sprintf(`(//button[contains(normalize-space(.), %s)])[1]`, xpathLiteral(text))
}

// textContaining matches the first element with a text node containing text
func textContaining(text string) string {
	return fmt.Sprintf(`(//*[not(self::script or self::style)][text()[contains(normalize-space(.), %s)]])[1]`, xpathLiteral(text))
}

// exactText matches the first element with a text node equal to text
func exactText(text string) string {
	return fmt.Sprintf(`(//*[not(self::script or self::style)][text()[normalize-space(.)=%s]])[1]`, xpathLiteral(text))
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences
func xpathLiteral(s string) string {
	for _, r := range s {
		if r == '"' {
			return "'" + s + "'"
		}
	}
	return `"` + s + `"`
}
