package generation

// Field names of the JSON object every provider must return.
const (
	FieldHeadline        = "headline"
	FieldDescription     = "description"
	FieldBulletPoints    = "bullet_points"
	FieldSEOTitle        = "seo_title"
	FieldMetaDescription = "meta_description"
	FieldCTALine         = "cta_line"
)

// FieldKind is the JSON type of a result field.
type FieldKind int

const (
	// KindString is a JSON string.
	KindString FieldKind = iota
	// KindStringList is a JSON array of strings.
	KindStringList
)

// SchemaField describes one required property of the output schema.
type SchemaField struct {
	Name        string
	Kind        FieldKind
	Description string
}

var resultSchema = []SchemaField{
	{Name: FieldHeadline, Kind: KindString, Description: "Hook headline that grabs attention immediately"},
	{Name: FieldDescription, Kind: KindString, Description: "Emotional benefit intro and objection handling, paragraphs separated by newlines"},
	{Name: FieldBulletPoints, Kind: KindStringList, Description: "Feature to benefit bullets, in display order"},
	{Name: FieldSEOTitle, Kind: KindString, Description: "Search engine title, at most 60 characters"},
	{Name: FieldMetaDescription, Kind: KindString, Description: "Search engine meta description, at most 160 characters"},
	{Name: FieldCTALine, Kind: KindString, Description: "Urgency call to action"},
}

// ResultSchema returns the declared output schema in property order. All
// fields are required.
func ResultSchema() []SchemaField {
	return append([]SchemaField(nil), resultSchema...)
}

// ResultFields returns the names of the required fields in property order.
func ResultFields() []string {
	names := make([]string, len(resultSchema))
	for i, f := range resultSchema {
		names[i] = f.Name
	}
	return names
}
