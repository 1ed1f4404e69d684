// Package services contains the core pipeline orchestration: batch
// ingestion, filtered retrieval and answer generation. Services depend
// only on ports, never on concrete adapters.
package services
