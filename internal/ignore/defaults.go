package ignore

// GitDirName is the version-control directory that is always pruned
const GitDirName = ".git"

// gitRule is appended to every rule source
var gitRule = Rule{Text: GitDirName + "/", Pattern: GitDirName, Kind: KindDirectory}

// DefaultRulesFileName is the conventional rules file name
const DefaultRulesFileName = ".codeignore"

// DefaultRules is the built-in list used when no rules file can be read.
// The contents are a policy choice; callers may replace them with WithDefaults.
var DefaultRules = []string{
	// Python
	"__pycache__/",
	"venv/",
	"*.venv/",
	".env",
	"*.pyc",

	// JavaScript and build output
	"node_modules/",
	"dist/",
	"build/",
	"target/",

	// Compiled objects and executables
	"*.o",
	"*.so",
	"*.dll",
	"*.exe",
	"*.bin",
	"*.class",
	"*.jar",
	"*.war",
	"*.ear",

	// Editors and OS cruft
	".DS_Store",
	".idea/",
	".vscode/",
	"nbproject/",
	"*.sublime-project",
	"*.sublime-workspace",
	"*.swp",
	"*.swo",

	// Logs and temporary files
	"*.log",
	"*.tmp",
	"*.bak",

	// Media and documents
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.tiff", "*.ico",
	"*.pdf",
	"*.doc", "*.docx", "*.xls", "*.xlsx", "*.ppt", "*.pptx",
	"*.mp3", "*.mp4", "*.avi", "*.mov", "*.webm",

	// Archives
	"*.zip", "*.tar", "*.gz", "*.rar", "*.7z",

	// Lockfiles
	"package-lock.json",
	"yarn.lock",
	"Pipfile.lock",
	"poetry.lock",
}
