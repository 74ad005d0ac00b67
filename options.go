package gallerydex

// Option configures an Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

type engineConfig struct {
	synonyms        map[string][]string
	synonymsFile    string
	withoutDefaults bool
}

// WithSynonyms merges extra concept -> terms entries over the built-in table.
// May be given more than once.
func WithSynonyms(extra map[string][]string) Option {
	return optionFunc(func(c *engineConfig) {
		if c.synonyms == nil {
			c.synonyms = make(map[string][]string, len(extra))
		}
		for k, terms := range extra {
			c.synonyms[k] = append(c.synonyms[k], terms...)
		}
	})
}

// WithSynonymsFile merges a YAML file of concept -> [terms] over the built-in table.
func WithSynonymsFile(path string) Option {
	return optionFunc(func(c *engineConfig) {
		c.synonymsFile = path
	})
}

// WithoutDefaultSynonyms starts from an empty table instead of the built-in one.
func WithoutDefaultSynonyms() Option {
	return optionFunc(func(c *engineConfig) {
		c.withoutDefaults = true
	})
}
