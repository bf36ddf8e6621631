// Package commands implements the persistx command line: writing a
// configuration, generating key material, inspecting, checking and clearing
// a save directory, and backing it up to S3.
//
// Configuration comes from --config (default persistx.yaml) when the file
// exists, otherwise from PERSISTX_* environment variables, optionally loaded
// from a .env file. The --directory, --extension and --serializer flags
// override either source.
package commands
