// Package common holds the logging setup shared by the library packages and the CLI.
//
// Every package obtains its logger through dragonboat's logger registry
// (logger.GetLogger("persist"), ...). InitLoggers installs the custom ILogger
// implementation of this package as the factory and sets one level for all known
// loggers, so library users that never call it still get dragonboat's default logger.
package common
