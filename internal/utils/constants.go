package utils

// Application level file names and messages shared across packages.
const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// LocalConfigFileName is the configuration file looked up in the working directory.
	LocalConfigFileName = ".gitree.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".gitree"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "gitree failed"
)
