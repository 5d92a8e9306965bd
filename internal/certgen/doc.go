// Package certgen provisions the self-signed certificate bundle devhttps
// serves.
//
// A bundle is a single PEM file holding the certificate followed by its
// unencrypted private key. It is regenerated on every start and replaces any
// file already at the target path.
//
// Two provisioners exist:
//
//   - OpenSSL: runs "openssl req -x509" as a checked subprocess
//   - Native: generates the same bundle in-process with crypto/x509
//
// Provisioning never silently succeeds: a missing tool, a non-zero exit or
// an unparsable result is returned as an error.
package certgen
