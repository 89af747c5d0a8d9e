package loam

// StepMetadata represents the frontmatter of a step document.
// It uses "mapstructure" tags to match the Frontmatter/YAML keys.
type StepMetadata struct {
	ID        string   `json:"id" mapstructure:"id"`
	Title     string   `json:"title" mapstructure:"title"`
	Route     string   `json:"route" mapstructure:"route"`
	FocusKey  string   `json:"focus_key" mapstructure:"focus_key"`
	Guard     string   `json:"guard" mapstructure:"guard"`
	DependsOn []string `json:"depends_on" mapstructure:"depends_on"`

	// Order sorts documents; ties keep repository listing order.
	Order int `json:"order" mapstructure:"order"`
}
