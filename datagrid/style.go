package datagrid

// StyleTag is a semantic style marker handed to the presentation layer.
// The presentation layer decides what each tag looks like.
type StyleTag string

const (
	TagTable     StyleTag = "table"
	TagHover     StyleTag = "hover"
	TagBordered  StyleTag = "bordered"
	TagStriped   StyleTag = "striped"
	TagCondensed StyleTag = "condensed"

	TagHeadActive  StyleTag = "head-active"
	TagHeadSuccess StyleTag = "head-success"
	TagHeadInfo    StyleTag = "head-info"
	TagHeadWarning StyleTag = "head-warning"
	TagHeadDanger  StyleTag = "head-danger"
)

// HeadTone is the emphasis of the header row.
type HeadTone string

const (
	HeadActive  HeadTone = "active"
	HeadSuccess HeadTone = "success"
	HeadInfo    HeadTone = "info"
	HeadWarning HeadTone = "warning"
	HeadDanger  HeadTone = "danger"
)

// StyleFlags are the style switches of a grid.
type StyleFlags struct {
	// Table lists body variants: "bordered", "striped", "condensed".
	Table []string
	Head  HeadTone
	// ClassName is a caller supplied class passed through as-is.
	ClassName string
	// Prefix namespaces the class names returned by ClassNames.
	Prefix string
}

// DefaultStyle returns the default style flags.
func DefaultStyle() StyleFlags {
	return StyleFlags{
		Table:     []string{"bordered"},
		Head:      HeadActive,
		ClassName: "table-responsive",
		Prefix:    "cat",
	}
}

var tableTags = map[string]StyleTag{
	"bordered":  TagBordered,
	"striped":   TagStriped,
	"condensed": TagCondensed,
}

var headTags = map[HeadTone]StyleTag{
	HeadActive:  TagHeadActive,
	HeadSuccess: TagHeadSuccess,
	HeadInfo:    TagHeadInfo,
	HeadWarning: TagHeadWarning,
	HeadDanger:  TagHeadDanger,
}

// StyleTags maps style flags to semantic tags. Unknown table variants and
// tones are dropped; the result never contains duplicates.
func StyleTags(f StyleFlags) []StyleTag {
	tags := []StyleTag{TagTable, TagHover}
	seen := map[StyleTag]bool{TagTable: true, TagHover: true}
	for _, s := range f.Table {
		if tag, ok := tableTags[s]; ok && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	if tag, ok := headTags[f.Head]; ok {
		tags = append(tags, tag)
	}
	return tags
}

// ClassNames returns prefixed class names for markup based presentation
// layers, e.g. "cat-table cat-table-hover cat-table-bordered table-responsive".
func ClassNames(f StyleFlags) []string {
	var names []string
	for _, tag := range StyleTags(f) {
		switch tag {
		case TagTable:
			names = append(names, f.Prefix+"-table")
		case TagHeadActive, TagHeadSuccess, TagHeadInfo, TagHeadWarning, TagHeadDanger:
			// header tones belong to the header, not the table element
		default:
			names = append(names, f.Prefix+"-table-"+string(tag))
		}
	}
	if f.ClassName != "" {
		names = append(names, f.ClassName)
	}
	return names
}
