package config

const (
	defaultLogFile                = "litcircle.log"
	defaultLogLevel               = "info"
	defaultLogFileMaxSize         = 20
	defaultLogFileMaxBackups      = 3
	defaultLogFileMaxAge          = 28
	defaultLogCompress            = false
	defaultPort                   = 8080
	defaultHost                   = "0.0.0.0"
	defaultData                   = "/var/opt/litcircle"
	defaultPageSize               = 12
	defaultMaxPageSize            = 100
	defaultWorkerPoolSize         = 10
	defaultCoverRequestTimeout    = 10
	defaultCoverRetryCount        = 3
	defaultCoverRetryBackoff      = 2
	defaultCoverPlaceholderURL    = "https://source.unsplash.com/300x450/?book"
	defaultAccessTokenDuration    = 24
)

var Opts *Options

// Why use mapstructure instead of json as field tags: viper unmarshals
// through mapstructure, json tags are not recognized.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated, in MiB
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// DSN is the path of the sqlite database
	DSN string `mapstructure:"dsn_uri"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Data is the directory to store data
	Data string `mapstructure:"data"`
	// PageSize is the default number of results per page
	PageSize int `mapstructure:"page_size"`
	// MaxPageSize caps the page_size query parameter
	MaxPageSize int `mapstructure:"max_page_size"`
	// WorkerPoolSize is the number of cover validation workers
	WorkerPoolSize int `mapstructure:"worker_pool_size"`
	// CoverRequestTimeout is the HTTP timeout for cover requests, in seconds
	CoverRequestTimeout int `mapstructure:"cover_request_timeout"`
	// CoverRetryCount is the number of attempts for a cover request
	CoverRetryCount int `mapstructure:"cover_retry_count"`
	// CoverRetryBackoff is the exponential backoff factor between attempts
	CoverRetryBackoff int `mapstructure:"cover_retry_backoff"`
	// CoverPlaceholderURL replaces cover URLs that fail validation
	CoverPlaceholderURL string `mapstructure:"cover_placeholder_url"`
	// AccessTokenDuration is the access token lifetime, in hours
	AccessTokenDuration int `mapstructure:"access_token_duration"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:             defaultLogFile,
		LogLevel:            defaultLogLevel,
		LogFileMaxSize:      defaultLogFileMaxSize,
		LogFileMaxBackups:   defaultLogFileMaxBackups,
		LogFileMaxAge:       defaultLogFileMaxAge,
		LogCompress:         defaultLogCompress,
		Port:                defaultPort,
		Host:                defaultHost,
		Data:                defaultData,
		PageSize:            defaultPageSize,
		MaxPageSize:         defaultMaxPageSize,
		WorkerPoolSize:      defaultWorkerPoolSize,
		CoverRequestTimeout: defaultCoverRequestTimeout,
		CoverRetryCount:     defaultCoverRetryCount,
		CoverRetryBackoff:   defaultCoverRetryBackoff,
		CoverPlaceholderURL: defaultCoverPlaceholderURL,
		AccessTokenDuration: defaultAccessTokenDuration,
	}
	return Opts
}
