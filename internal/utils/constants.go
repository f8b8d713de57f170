package utils

const (
	// ApplicationName is used for configuration directories and the binary name.
	ApplicationName = "svgtree"
	// ConfigFileName is the name of the application configuration file.
	ConfigFileName = ".svgtree.yaml"
	// GlobalConfigDirectoryName is the directory under the home directory holding global configuration.
	GlobalConfigDirectoryName = ".svgtree"
	// LoggerInitializationFailedMessageFormat reports logger construction failures.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal execution errors.
	ApplicationExecutionFailedMessage = "svgtree failed"
)
