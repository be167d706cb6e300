package domain

import (
	"testing"

	"sudokucore/testutil"
)

// TestDomainImportBoundaries keeps the domain layer free of internal packages
// and storage drivers.
func TestDomainImportBoundaries(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".",
		testutil.AnyOf(testutil.InternalImportForbidden, testutil.StorageImportForbidden),
		"pkg/domain must stay independent of internal and storage packages")
}
