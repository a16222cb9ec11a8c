// Package domain contains the core business entities and domain logic of
// the application, independent of any specific infrastructure or delivery
// mechanism. Its central entity is the OperationRecord, one row of the
// processing audit log.
package domain
