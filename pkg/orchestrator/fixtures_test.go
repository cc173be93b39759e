package orchestrator_test

import (
	"encoding/json"
	"strings"

	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/orchestrator"
	"github.com/arthur-debert/mwu/pkg/testutil"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/rs/zerolog"
)

type plugin struct {
	Name          string `json:"name"`
	Status        string `json:"status"`
	Version       string `json:"version"`
	Update        string `json:"update"`
	UpdateVersion string `json:"update_version"`
	UpdatePackage string `json:"update_package"`
}

func available(name, from, to string) *plugin {
	return &plugin{Name: name, Status: "active", Version: from, Update: "available", UpdateVersion: to, UpdatePackage: "https://example.org/" + name + ".zip"}
}

// wpSite simulates wp-cli on a site whose dev environment is reached through gw
type wpSite struct {
	gw      *testutil.FakeGateway
	plugins []*plugin

	// failures counts how many update attempts fail per plugin before succeeding
	failures map[string]int

	unhealthy            map[string]bool
	unhealthyAfterUpdate bool
	updated              bool
}

func newWPSite(gw *testutil.FakeGateway, plugins ...*plugin) *wpSite {
	s := &wpSite{gw: gw, plugins: plugins, failures: map[string]int{}, unhealthy: map[string]bool{}}
	gw.RemoteFunc = s.remote
	return s
}

func (s *wpSite) find(name string) *plugin {
	for _, p := range s.plugins {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (s *wpSite) remote(ref types.EnvironmentRef, cmd gateway.RemoteCommand) (gateway.CommandResult, error) {
	switch strings.Join(cmd.Args[:2], " ") {
	case "plugin list":
		out, _ := json.Marshal(s.plugins)
		return gateway.CommandResult{Output: string(out)}, nil

	case "plugin status":
		if s.unhealthy[ref.Env] || (s.unhealthyAfterUpdate && s.updated) {
			return gateway.CommandResult{ExitStatus: 255, Output: "PHP Fatal error"}, nil
		}
		return gateway.CommandResult{Output: "ok"}, nil

	case "plugin get":
		p := s.find(cmd.Args[2])
		if p == nil {
			return gateway.CommandResult{ExitStatus: 1, Output: "Error: The plugin could not be found."}, nil
		}
		out, _ := json.Marshal(p)
		return gateway.CommandResult{Output: string(out)}, nil

	case "plugin update":
		type item struct {
			Name       string `json:"name"`
			OldVersion string `json:"old_version"`
			NewVersion string `json:"new_version"`
			Status     string `json:"status"`
		}
		var items []item
		exit := 0
		for _, name := range cmd.Args[2:] {
			if strings.HasPrefix(name, "--") {
				continue
			}
			p := s.find(name)
			if s.failures[name] > 0 {
				s.failures[name]--
				items = append(items, item{Name: name, OldVersion: p.Version, NewVersion: p.UpdateVersion, Status: "Error"})
				exit = 1
				continue
			}
			items = append(items, item{Name: name, OldVersion: p.Version, NewVersion: p.UpdateVersion, Status: "Updated"})
			p.Version, p.Update, p.UpdateVersion, p.UpdatePackage = p.UpdateVersion, "none", "", ""
			s.updated = true
			s.gw.Diffs[ref.Env]++
		}
		out, _ := json.Marshal(items)
		return gateway.CommandResult{ExitStatus: exit, Output: string(out)}, nil
	}
	return gateway.CommandResult{ExitStatus: 127}, nil
}

func wpJob(mutate func(*types.UpdateJobSpec)) types.UpdateJobSpec {
	job := types.UpdateJobSpec{
		Ref:       types.EnvironmentRef{Site: "acme", Env: types.EnvDev},
		Framework: "wordpress",
		Settings: types.Settings{
			Env:           types.EnvDev,
			Workflow:      types.WorkflowWordPress,
			Backup:        "all",
			BackupKeepFor: 365,
			Update:        true,
			AutoCommit:    "Plugin updates",
			AutoDeploy:    []string{types.EnvTest, types.EnvLive},
		},
	}
	if mutate != nil {
		mutate(&job)
	}
	return job
}

func newOrchestrator(gw gateway.Gateway, confirmer orchestrator.Confirmer) *orchestrator.Orchestrator {
	nop := zerolog.Nop()
	return orchestrator.New(orchestrator.Options{Gateway: gw, Confirmer: confirmer, Logger: &nop})
}

func remoteArgs(calls []testutil.GatewayCall, prefix string) [][]string {
	var out [][]string
	for _, c := range calls {
		if c.Method == "RunRemoteCommand" && strings.HasPrefix(strings.Join(c.Args, " "), prefix) {
			out = append(out, c.Args)
		}
	}
	return out
}
