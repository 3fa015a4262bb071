// Package logger provides structured logging on top of zerolog.
//
// Output is JSON or a compact console format. Loggers carry a service tag
// and can be narrowed with a component name, extra fields, or the request
// and trace identifiers found on a context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("requester")
//	log.Debug("call completed", logger.Fields(logger.FieldStatus, 200))
package logger
