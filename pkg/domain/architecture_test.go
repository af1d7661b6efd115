package domain_test

import (
	"testing"

	"gostspec/testutil"
)

func TestDomainHasNoEngineOrDriverImports(t *testing.T) {
	testutil.AssertTreeImports(t, ".", testutil.AnyOf(testutil.InternalImportForbidden, testutil.DriverImportForbidden),
		"the host contract must not depend on engine or storage packages")
}

func TestDomainHasNoTransitiveDriverDependency(t *testing.T) {
	testutil.AssertNoTransitiveDependency(t, ".", testutil.AnyOf(testutil.UnderModule("internal"), testutil.DriverImportForbidden),
		"the host contract must build without drivers")
}
