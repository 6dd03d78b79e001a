package config

// DefaultTOCFooter is the text appended below a generated table of contents.
const DefaultTOCFooter = "\n\n_(TOC generated by [verb](https://github.com/verbose/verb) using [markdown-toc](https://github.com/jonschlinkert/markdown-toc))_"

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Readme: ".verb.md",
		Verbmd: true,
		Tool:   "verb",
		Engine: EngineConfig{
			Delims:         []string{"{%", "%}"},
			MissingInclude: string(MissingIgnore),
			MissingData:    string(MissingZero),
		},
		Pipeline: []string{"toc", "whitespace"},
		TOC:      TOCConfig{Enabled: true, Footer: DefaultTOCFooter},
	}
}
