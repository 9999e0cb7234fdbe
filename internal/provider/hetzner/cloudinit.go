package hetzner

import (
	"fmt"
	"strings"

	"github.com/imamik/clwd/internal/provider"
)

// UserData assembles the cloud-init bootstrap script for a new instance.
// The script runs as root on first boot. It deliberately contains no agent
// credentials; those are transferred over SSH once setup completes.
func UserData(projectName, hardeningLevel string) string {
	parts := []string{
		baseSetupScript,
		nodeSetupScript,
		nginxSetupScript,
		hardeningScript(hardeningLevel),
		completionScript(),
	}
	return strings.Join(parts, "\n")
}

const baseSetupScript = `#!/bin/bash
set -e

# Update system and install base packages
apt-get update
apt-get install -y curl wget gnupg2 software-properties-common nginx ufw

# Create working directory
mkdir -p /app
cd /app`

const nodeSetupScript = `
# Install Node.js 20.x
curl -fsSL https://deb.nodesource.com/setup_20.x | bash -
apt-get install -y nodejs

# Install Claude Code CLI
npm install -g @anthropic-ai/claude-code`

const nginxSetupScript = `
# Configure nginx to serve /app with a fallback proxy to a dev server
cat > /etc/nginx/sites-available/default << 'EOF'
server {
    listen 80 default_server;
    listen [::]:80 default_server;

    root /app;
    index index.html;
    server_name _;

    location / {
        try_files $uri $uri/ @proxy;
    }

    location @proxy {
        proxy_pass http://localhost:3000;
        proxy_http_version 1.1;
        proxy_set_header Upgrade $http_upgrade;
        proxy_set_header Connection 'upgrade';
        proxy_set_header Host $host;
        proxy_cache_bypass $http_upgrade;
    }
}
EOF

cat > /app/index.html << 'EOF'
<!DOCTYPE html>
<html>
<head>
    <title>Claude Code Instance</title>
    <style>
        body { font-family: system-ui; text-align: center; padding: 2rem; background: #0a0a0a; color: #e8e8e8; }
        .status { color: #10b981; font-size: 1.5rem; margin-bottom: 1rem; }
        .info { color: #888; }
    </style>
</head>
<body>
    <div class="status">Claude Code Instance Ready</div>
    <div class="info">SSH in to start developing with Claude Code</div>
    <div class="info">Working directory: /app</div>
</body>
</html>
EOF

systemctl restart nginx`

// hardeningScript returns the firewall/sshd section for the requested level.
// Unknown levels are rejected earlier by validation; the fallthrough here is
// a no-op comment so the generated script stays well-formed.
func hardeningScript(level string) string {
	switch level {
	case "minimal":
		return `
# Minimal security hardening
ufw --force enable
ufw allow ssh
ufw allow http
ufw allow https

sed -i 's/#PasswordAuthentication yes/PasswordAuthentication no/' /etc/ssh/sshd_config
systemctl restart sshd`
	case "full":
		return `
# Full security hardening
ufw --force enable
ufw allow ssh
ufw allow http
ufw allow https

sed -i 's/#PasswordAuthentication yes/PasswordAuthentication no/' /etc/ssh/sshd_config
sed -i 's/#PermitRootLogin yes/PermitRootLogin no/' /etc/ssh/sshd_config
sed -i 's/#MaxAuthTries 6/MaxAuthTries 3/' /etc/ssh/sshd_config

apt-get install -y fail2ban
systemctl enable fail2ban
systemctl start fail2ban

systemctl restart sshd`
	case "none":
		return "\n# No security hardening applied"
	default:
		return "\n# Unknown hardening level"
	}
}

func completionScript() string {
	return fmt.Sprintf(`
# Mark setup as complete
touch %s
echo "Setup completed at $(date)" > /var/log/clwd-setup.log`, provider.SetupMarkerPath)
}
