package testutil

// BlockOption configures a code block during page setup.
type BlockOption func(*blockData)

// Language sets a language-<lang> class on the <code> element.
func Language(lang string) BlockOption {
	return func(d *blockData) { d.language = lang }
}

// PreLanguage sets a lang-<lang> class on the enclosing <pre>.
func PreLanguage(lang string) BlockOption {
	return func(d *blockData) { d.preLanguage = lang }
}

// ID sets the element id.
func ID(id string) BlockOption {
	return func(d *blockData) { d.id = id }
}

// Class adds extra classes to the <code> element.
func Class(classes ...string) BlockOption {
	return func(d *blockData) { d.extraClasses = append(d.extraClasses, classes...) }
}

// Marked flags the block as already highlighted with data-highlighted="true".
func Marked() BlockOption {
	return MarkerValue("true")
}

// MarkerValue sets the marker attribute to an arbitrary value.
func MarkerValue(v string) BlockOption {
	return func(d *blockData) { d.markerValue = v }
}

// MarkerAttr renames the marker attribute, for pages processed with a
// custom page.marker_attr.
func MarkerAttr(name string) BlockOption {
	return func(d *blockData) { d.marker = name }
}
