// internal/collect/security.go
package collect

import (
	"os"
	"os/exec"
	"strings"
)

const sshdConfigPath = "/etc/ssh/sshd_config"

// SSHDPolicy holds the effective values of the two sshd_config directives
// the audit cares about, as "yes"/"no" strings.
type SSHDPolicy struct {
	RootLogin    string
	PasswordAuth string
}

// ParseSSHDConfig resolves PermitRootLogin and PasswordAuthentication from
// sshd_config text. Absent directives get the OpenSSH defaults: root login
// prohibit-password (effectively disabled for password access), password
// authentication enabled. Later directives do not override earlier ones,
// matching sshd's first-match semantics.
func ParseSSHDConfig(text string) SSHDPolicy {
	policy := SSHDPolicy{RootLogin: "", PasswordAuth: ""}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		directive := strings.ToLower(fields[0])
		value := strings.ToLower(fields[1])

		switch directive {
		case "permitrootlogin":
			if policy.RootLogin == "" {
				if value == "yes" {
					policy.RootLogin = "yes"
				} else {
					policy.RootLogin = "no"
				}
			}
		case "passwordauthentication":
			if policy.PasswordAuth == "" {
				if value == "yes" {
					policy.PasswordAuth = "yes"
				} else {
					policy.PasswordAuth = "no"
				}
			}
		}
	}

	if policy.RootLogin == "" {
		policy.RootLogin = "no"
	}
	if policy.PasswordAuth == "" {
		policy.PasswordAuth = "yes"
	}
	return policy
}

// collectSSH gathers the SSH security posture. A missing config file is a
// real observation (config_exists=false) but leaves the directive flags
// unknown rather than guessing.
func collectSSH() map[string]any {
	out := map[string]any{}

	data, err := os.ReadFile(sshdConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			out["config_exists"] = false
		}
		// Permission errors leave config_exists unknown.
	} else {
		out["config_exists"] = true
		policy := ParseSSHDConfig(string(data))
		out["root_login_enabled"] = policy.RootLogin
		out["password_auth_enabled"] = policy.PasswordAuth
	}

	for _, unit := range []string{"sshd", "ssh"} {
		cmd := exec.Command("systemctl", "is-active", "--quiet", unit)
		if err := cmd.Run(); err == nil {
			out["service_running"] = true
			return out
		}
		if _, ok := err.(*exec.ExitError); ok {
			// systemctl ran and said inactive; keep checking aliases.
			out["service_running"] = false
			continue
		}
		// systemctl itself unavailable: service state stays unknown.
		delete(out, "service_running")
		break
	}

	return out
}
