// Package sparql is a minimal SPARQL 1.1 protocol client.
//
// Queries and updates are POSTed form-encoded to a single endpoint
// (<base>/sparql, as Neptune and Virtuoso expose it). Requests can be signed
// with AWS Signature Version 4 for IAM-authenticated Neptune clusters, or
// carry HTTP basic credentials.
//
// Client satisfies the collaborators the migration core needs: it applies
// update statements, counts shape solutions and answers SELECT queries.
package sparql
