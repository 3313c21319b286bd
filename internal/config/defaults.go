package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# fraglog configuration
# Environment variables override these values, e.g. FRAGLOG_FRAGMENT_DIR=notes

fragment_dir: .changelogs             # Fragment tree (one directory per release, e.g. .changelogs/1.2.0/)
template_path: template.md            # Changelog template, relative to fragment_dir
changelog: CHANGELOG.md               # File written by 'fraglog release'
fragment_format: toml                 # Header syntax for 'fraglog new': toml (+++) | yaml (---)
log_level: warn                       # debug | info | warn | error
same_filesystem: true                 # Do not descend into other mounted filesystems

# Header fields checked by 'fraglog verify' and filled in by 'fraglog new'
header:
  issue:
    type: int                         # int | text | bool
    required: false
  # type:
  #   type: text
  #   default: changed
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"fragment_dir":    ".changelogs",
		"template_path":   "template.md",
		"changelog":       "CHANGELOG.md",
		"fragment_format": "toml",
		"log_level":       "warn",
		"same_filesystem": true,
		"header":          map[string]interface{}{},
	}
}
