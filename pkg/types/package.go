package types

// PackageStatus is one installed plugin or module as reported by the package manager.
// It is fetched fresh for every decision and never cached across jobs.
type PackageStatus struct {
	Name            string
	Version         string
	UpdateVersion   string
	UpdateAvailable bool

	// HasPackage is false when the manager reports no installable artifact
	HasPackage bool

	Status   string
	Security bool
}
