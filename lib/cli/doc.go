// Package cli implements the udptransport command line.
//
//	udptransport listen udp:0.0.0.0:161     hold listeners open until interrupted
//	udptransport open 192.0.2.1:161         open originators and report them
//	udptransport config show                print the effective configuration
//
// SIGHUP rereads the configuration file; the new settings apply to endpoints
// opened afterwards. SIGINT and SIGTERM close every endpoint and exit.
package cli
