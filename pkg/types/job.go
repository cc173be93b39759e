package types

// DefaultCommitMessage is used when auto_commit is enabled without a message
const DefaultCommitMessage = "Site updated by MWU."

// Notifications holds recipient identifiers per outcome category
type Notifications struct {
	Error   []string `koanf:"error" yaml:"error,omitempty"`
	Updated []string `koanf:"updated" yaml:"updated,omitempty"`
	Report  []string `koanf:"report" yaml:"report,omitempty"`
}

// IsEmpty reports whether no recipient is configured at all
func (n Notifications) IsEmpty() bool {
	return len(n.Error) == 0 && len(n.Updated) == 0 && len(n.Report) == 0
}

// Settings is the fully resolved configuration of one job.
type Settings struct {
	Env      string   `koanf:"env"`
	Workflow Workflow `koanf:"workflow"`

	// Backup is the backup element (all, code, files, database). Empty disables backups.
	Backup        string `koanf:"backup"`
	BackupKeepFor int    `koanf:"backup_keep_for"`

	Upstream bool `koanf:"upstream"`
	Update   bool `koanf:"update"`

	// Packages restricts the update to these names when non-empty
	Packages []string `koanf:"packages"`
	Exclude  []string `koanf:"exclude"`

	SecurityOnly bool `koanf:"security_only"`
	MajorUpdate  bool `koanf:"major_update"`

	// AutoCommit is the commit message. Empty disables the commit step.
	AutoCommit string   `koanf:"auto_commit"`
	AutoDeploy []string `koanf:"auto_deploy"`

	Confirm bool `koanf:"confirm"`
	Report  bool `koanf:"report"`

	Notifications Notifications `koanf:"notifications"`
}

// UpdateJobSpec is one queue entry. It is built once by the queue builder and
// never modified while the orchestrator runs it.
type UpdateJobSpec struct {
	Ref       EnvironmentRef
	Framework string
	Settings
}

// ReportOnly reports whether the job must perform no mutation
func (j UpdateJobSpec) ReportOnly() bool {
	return j.Settings.Report
}

// DeployTargets orders deploy targets as test then live. Live is never
// reached without test, so requesting live implies test.
func DeployTargets(requested []string) []string {
	var wantTest, wantLive bool
	for _, e := range requested {
		switch e {
		case EnvTest:
			wantTest = true
		case EnvLive:
			wantLive = true
		}
	}
	var out []string
	if wantTest || wantLive {
		out = append(out, EnvTest)
	}
	if wantLive {
		out = append(out, EnvLive)
	}
	return out
}
