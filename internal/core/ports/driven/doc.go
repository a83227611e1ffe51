// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Normaliser: Turns one raw source type into Records
//   - Fetcher: Retrieves web pages for the website normaliser
//   - RecordIndex: Durable similarity-search collection
//   - EmbeddingService: Computes vectors on behalf of the RecordIndex
//   - LLMService: Text generation for answers and health probes
//   - ConfigStore: Application configuration
//   - PromptStore: User-editable prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
