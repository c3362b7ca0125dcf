// internal/identity/mock_gen.go
package identity

//go:generate mockgen -source=./verifier.go -destination=../mocks/mock_identity.go -package=mocks DirectoryLookup,DeliverabilityChecker
