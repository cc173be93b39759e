package packages

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/mwu/pkg/types"
)

// PartitionOptions selects which entries of a status list are update targets
type PartitionOptions struct {
	// Filter restricts consideration to these names when non-empty
	Filter       []string
	Exclude      []string
	AllowMajor   bool
	SecurityOnly bool
}

// Partition splits a package status list into disjoint groups.
type Partition struct {
	Targets      []types.PackageStatus
	Unavailable  []types.PackageStatus
	Excluded     []types.PackageStatus
	MajorSkipped []types.PackageStatus
	UpToDate     int
}

// TargetNames lists the names that the update command will receive
func (p Partition) TargetNames() []string {
	names := make([]string, 0, len(p.Targets))
	for _, t := range p.Targets {
		names = append(names, t.Name)
	}
	return names
}

// PartitionStatuses applies the exclude list first, then availability, then
// major classification. Excluded names never reach any other group.
func PartitionStatuses(statuses []types.PackageStatus, opts PartitionOptions) Partition {
	filter := toSet(opts.Filter)
	exclude := toSet(opts.Exclude)

	var p Partition
	for _, s := range statuses {
		if len(filter) > 0 && !filter[s.Name] {
			continue
		}
		switch {
		case exclude[s.Name]:
			p.Excluded = append(p.Excluded, s)
		case !s.UpdateAvailable:
			p.UpToDate++
		case opts.SecurityOnly && !s.Security:
			p.UpToDate++
		case !s.HasPackage:
			p.Unavailable = append(p.Unavailable, s)
		case !opts.AllowMajor && IsMajorUpdate(s.Version, s.UpdateVersion):
			p.MajorSkipped = append(p.MajorSkipped, s)
		default:
			p.Targets = append(p.Targets, s)
		}
	}
	return p
}

// IsMajorUpdate compares the integer prefix before the first dot of each
// version. A strictly greater new prefix is a major update. Non-numeric
// prefixes count as zero.
func IsMajorUpdate(oldVersion, newVersion string) bool {
	return leadingInt(newVersion) > leadingInt(oldVersion)
}

func leadingInt(version string) int {
	head := strings.TrimSpace(version)
	if idx := strings.Index(head, "."); idx >= 0 {
		head = head[:idx]
	}
	end := 0
	for end < len(head) && head[end] >= '0' && head[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(head[:end])
	if err != nil {
		return 0
	}
	return n
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
