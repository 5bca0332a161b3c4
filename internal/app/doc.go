// Package app wires the rollbook server together and manages its lifecycle.
//
// # Initialization Flow
//
//  1. Resolve and create the data, reports and logs directories
//  2. Initialize OpenTelemetry providers and instruments
//  3. Start the WebSocket hub
//  4. Build the file reader, optional Sheets publisher and services
//  5. Mount HTTP handlers behind the middleware chain
//  6. Configure the HTTP server
//
// # Usage
//
//	cfg, _ := config.Load()
//	logger, _ := infrastructure.InitializeLogger(cfg.Logging)
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// Run blocks until SIGINT or SIGTERM, then drains requests, closes WebSocket
// clients and flushes telemetry. Initialization errors are returned; the
// package never calls os.Exit.
package app
