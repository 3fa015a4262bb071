// Package security builds the TLS material used by the HTTP transport.
//
// TLSConfig covers server verification (CA bundle, server name, minimum
// version). Agent carries the client key and certificate for mutual TLS and
// is rebuilt from file paths on every call:
//
//	agent, err := security.BuildAgent(security.AgentFilesFromEnv())
//	if err != nil {
//	    // *security.ConfigurationError: a key or certificate file is unreadable
//	}
//	tlsCfg, err := agent.ClientTLS(nil)
package security
