package enums

// ProductSource records where a catalog row came from.
type ProductSource string

const (
	// ProductSourceCustom rows are created in the admin. Legacy rows may store NULL instead.
	ProductSourceCustom     ProductSource = "custom"
	ProductSourceSeed       ProductSource = "seed"
	ProductSourcePromonitor ProductSource = "promonitor"
)

var validProductSources = []ProductSource{
	ProductSourceCustom,
	ProductSourceSeed,
	ProductSourcePromonitor,
}

// String implements fmt.Stringer.
func (s ProductSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductSource.
func (s ProductSource) IsValid() bool {
	for _, candidate := range validProductSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// Ptr returns a pointer for assignment to nullable columns.
func (s ProductSource) Ptr() *ProductSource {
	return &s
}
