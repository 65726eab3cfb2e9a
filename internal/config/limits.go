package config

const (
	// DefaultMaxTreeDepth caps ancestor and unbounded subtree walks. Editorial
	// hierarchies rarely exceed a handful of levels; a walk that goes past
	// this is treated as corrupt data rather than followed forever.
	DefaultMaxTreeDepth = 64

	// MaxSlugLength bounds slug path parameters.
	MaxSlugLength = 255

	// MaxFieldNameLength bounds parentField/labelField query parameters.
	MaxFieldNameLength = 64

	// MaxContentTypeLength bounds the contentType query parameter
	// ("api::<kind>.<kind>").
	MaxContentTypeLength = 128
)
