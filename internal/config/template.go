package config

// DefaultTOML is the template written by "struktur config init".
const DefaultTOML = `# struktur configuration.
# Values here are overridden by STRUKTUR_* env vars and by command-line flags.

# Folder to walk. Leave empty to be prompted.
# root_dir = "."

# File the tree is written to; truncated on every run.
output = "output.txt"

# Inline the text of every file. Leave unset to be prompted.
# inline_content = true

# "relative" prints paths relative to the root folder, "name" prints bare names.
path_style = "relative"

# Globs matched against root-relative paths; "**" spans directories.
path_excludes = []
# path_excludes = ["**/.git/**", "**/node_modules/**", "*.log"]

verbose = false
`

// DefaultYAML is the YAML form of DefaultTOML.
const DefaultYAML = `# struktur configuration.
# Values here are overridden by STRUKTUR_* env vars and by command-line flags.

# Folder to walk. Leave empty to be prompted.
# root_dir: "."

# File the tree is written to; truncated on every run.
output: output.txt

# Inline the text of every file. Leave unset to be prompted.
# inline_content: true

# "relative" prints paths relative to the root folder, "name" prints bare names.
path_style: relative

# Globs matched against root-relative paths; "**" spans directories.
path_excludes: []
#  - "**/.git/**"
#  - "**/node_modules/**"
#  - "*.log"

verbose: false
`
