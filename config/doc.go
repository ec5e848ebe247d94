// Package config loads the ambient settings of pipekit programs.
//
// It uses Viper to read a YAML file and godotenv to load a .env file, then
// overlays environment variables carrying the APP_ prefix:
//
//	var cfg config.ServiceConfig
//	if err := config.LoadConfig("scenarios", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// APP_LOGGING_LEVEL=debug overrides logging.level, APP_INVOKE_CONCURRENCY=8
// overrides invoke.concurrency.
package config
