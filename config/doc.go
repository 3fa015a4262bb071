// Package config loads the requester configuration.
//
// Values come from a YAML file (explicit, or discovered as config.yml next
// to the binary's cmd directory, in ./config, the working directory or the
// user config directory), then a .env file, then the environment. Variables
// prefixed with REQUESTER_ map onto nested keys, so REQUESTER_API_URL sets
// api.url. GITLAB_SSL_KEY and GITLAB_SSL_CERT set the client key pair.
//
//	var cfg config.Config
//	if err := config.LoadConfig("requester", &cfg, config.WithConfigFile(path)); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	svc := cfg.Service()
package config
