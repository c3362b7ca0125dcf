// internal/repository/mock_gen.go
package repository

//go:generate mockgen -source=./organization.go -destination=../mocks/mock_organization_repository.go -package=mocks OrganizationRepositoryIface
//go:generate mockgen -source=./allocation.go -destination=../mocks/mock_allocation_repository.go -package=mocks AllocationRepositoryIface
//go:generate mockgen -source=./verification_log.go -destination=../mocks/mock_verification_log_repository.go -package=mocks VerificationLogRepositoryIface
