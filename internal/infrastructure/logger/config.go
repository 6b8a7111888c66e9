package logger

type Config struct {
	Level      Level  `json:"level"       yaml:"level"`
	Format     string `json:"format"      yaml:"format"` // json, console, text
	Output     string `json:"output"      yaml:"output"` // stdout, stderr, file
	FilePath   string `json:"file_path"   yaml:"file_path"`
	MaxSize    int    `json:"max_size"    yaml:"max_size"` // MB
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAge     int    `json:"max_age"     yaml:"max_age"` // days
	Compress   bool   `json:"compress"    yaml:"compress"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Level:      LevelInfo,
		Format:     "console",
		Output:     "stdout",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}
