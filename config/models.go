package config

type Config struct {
	Google  Google
	Drive   Drive
	Log     Log
	Uploads []Upload
	Report  Report
}

type Google struct {
	// Auth is "personal" or "service".
	Auth              string
	KeyPath           string
	ClientSecretsPath string
	TokenPath         string
	Scopes            []string
}

type Drive struct {
	FolderUrl     string
	PathSeparator string
	MaxPathDepth  int
}

type Log struct {
	Level string
}

type Upload struct {
	Name      string
	Schedule  string
	FilePath  string
	FileName  string
	FolderUrl string
}

// Report names the spreadsheet that scheduled uploads are logged to. Empty SpreadsheetId
// turns the log off.
type Report struct {
	SpreadsheetId string
	Range         string
}
