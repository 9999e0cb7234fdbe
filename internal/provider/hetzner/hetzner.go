package hetzner

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/clwd/internal/provider"
	"github.com/imamik/clwd/internal/util/retry"
)

// Kind is the provider tag recorded on instances created here.
const Kind = "hetzner"

const (
	defaultRegion = "nbg1"
	serverImage   = "ubuntu-24.04"

	sshPort            = 22
	reachablePollEvery = 2 * time.Second
	reachableSettle    = 5 * time.Second
	dialTimeout        = 5 * time.Second
)

// sizeMap translates abstract sizes to Hetzner server types.
var sizeMap = map[string]provider.SizeSpec{
	"small":  {ServerType: "cpx11", CPU: 2, Memory: "4GB", Disk: "40GB SSD", PriceMonthly: "EUR 4.51"},
	"medium": {ServerType: "cpx21", CPU: 3, Memory: "8GB", Disk: "80GB SSD", PriceMonthly: "EUR 9.07"},
	"large":  {ServerType: "cpx31", CPU: 4, Memory: "16GB", Disk: "160GB SSD", PriceMonthly: "EUR 17.86"},
}

// regions maps supported region codes to display names.
var regions = map[string]string{
	"nbg1": "Nuremberg DC Park 1",
	"fsn1": "Falkenstein DC Park 1",
	"hel1": "Helsinki DC Park 1",
	"ash":  "Ashburn, VA",
	"hil":  "Hillsboro, OR",
}

// Options configures the Hetzner provider.
type Options struct {
	// Token is the Hetzner Cloud API token. Required.
	Token string
	// Region is the default region for created servers. Defaults to nbg1.
	Region string
	// PublicKey is the local SSH public key in authorized_keys format. It
	// is uploaded to the project (or matched against an existing key) and
	// attached to created servers.
	PublicKey string
}

// Hetzner implements provider.Provider on Hetzner Cloud.
type Hetzner struct {
	client    *hcloud.Client
	region    string
	publicKey string

	now func() time.Time
}

var _ provider.Provider = (*Hetzner)(nil)

// New creates a Hetzner provider. It validates options but performs no API
// calls; a bad token surfaces on first use.
func New(opts Options) (*Hetzner, error) {
	if opts.Token == "" {
		return nil, provider.NewAuthenticationError(Kind, "API token not provided, set HETZNER_API_TOKEN")
	}
	region := opts.Region
	if region == "" {
		region = defaultRegion
	}
	if _, ok := regions[region]; !ok {
		return nil, provider.NewConfigurationError(Kind, "unsupported region: %s (supported: %s)", region, regionCodes())
	}

	return &Hetzner{
		client:    hcloud.NewClient(hcloud.WithToken(opts.Token), hcloud.WithApplication("clwd", "")),
		region:    region,
		publicKey: opts.PublicKey,
		now:       time.Now,
	}, nil
}

// Kind implements provider.Provider.
func (h *Hetzner) Kind() string { return Kind }

// Sizes implements provider.Provider.
func (h *Hetzner) Sizes() map[string]provider.SizeSpec {
	out := make(map[string]provider.SizeSpec, len(sizeMap))
	for k, v := range sizeMap {
		out[k] = v
	}
	return out
}

// Regions implements provider.Provider.
func (h *Hetzner) Regions() map[string]string {
	out := make(map[string]string, len(regions))
	for k, v := range regions {
		out[k] = v
	}
	return out
}

// CreateInstance implements provider.Provider.
func (h *Hetzner) CreateInstance(ctx context.Context, req provider.CreateRequest) (*provider.Instance, error) {
	spec, ok := sizeMap[req.Size]
	if !ok {
		return nil, provider.NewConfigurationError(Kind, "unsupported size: %s (supported: small, medium, large)", req.Size)
	}

	region := req.Region
	if region == "" {
		region = h.region
	}
	if _, ok := regions[region]; !ok {
		return nil, provider.NewConfigurationError(Kind, "unsupported region: %s (supported: %s)", region, regionCodes())
	}

	sshKey, err := h.ensureSSHKey(ctx)
	if err != nil {
		return nil, err
	}

	serverType, _, err := h.client.ServerType.Get(ctx, spec.ServerType)
	if err != nil {
		return nil, h.wrap(err, "failed to get server type %s", spec.ServerType)
	}
	if serverType == nil {
		return nil, provider.NewConfigurationError(Kind, "server type not found: %s", spec.ServerType)
	}

	image, _, err := h.client.Image.GetByNameAndArchitecture(ctx, serverImage, serverType.Architecture)
	if err != nil {
		return nil, h.wrap(err, "failed to get image %s", serverImage)
	}
	if image == nil {
		return nil, provider.NewConfigurationError(Kind, "image not found: %s", serverImage)
	}

	location, _, err := h.client.Location.Get(ctx, region)
	if err != nil {
		return nil, h.wrap(err, "failed to get location %s", region)
	}
	if location == nil {
		return nil, provider.NewConfigurationError(Kind, "location not found: %s", region)
	}

	created := h.now().UTC()
	opts := hcloud.ServerCreateOpts{
		Name:       ServerName(req.ProjectName, created),
		ServerType: serverType,
		Image:      image,
		SSHKeys:    []*hcloud.SSHKey{sshKey},
		UserData:   UserData(req.ProjectName, req.HardeningLevel),
		Location:   location,
		Labels: map[string]string{
			"project":    req.ProjectName,
			"managed-by": "clwd",
			"hardening":  req.HardeningLevel,
		},
	}

	var result hcloud.ServerCreateResult
	err = retry.WithExponentialBackoff(ctx, func() error {
		res, _, err := h.client.Server.Create(ctx, opts)
		if err != nil {
			if isInvalidParameter(err) || isQuotaExceeded(err) || isUnauthorized(err) {
				return retry.Fatal(err)
			}
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, h.wrap(err, "failed to create server %s", opts.Name)
	}

	server := result.Server
	datacenter := ""
	if server.Datacenter != nil {
		datacenter = server.Datacenter.Name
	}

	return provider.NewInstance(
		strconv.FormatInt(server.ID, 10),
		server.Name,
		server.PublicNet.IPv4.IP.String(),
		Kind,
		string(server.Status),
		created.Format(time.RFC3339),
		map[string]string{
			"server_type":     spec.ServerType,
			"region":          region,
			"hardening_level": req.HardeningLevel,
			"datacenter":      datacenter,
		},
	)
}

// DestroyInstance implements provider.Provider.
func (h *Hetzner) DestroyInstance(ctx context.Context, instanceID string) error {
	server, err := h.getServer(ctx, instanceID)
	if err != nil {
		return err
	}
	if _, _, err := h.client.Server.DeleteWithResult(ctx, server); err != nil {
		return h.wrap(err, "failed to destroy server %s", instanceID)
	}
	return nil
}

// InstanceStatus implements provider.Provider.
func (h *Hetzner) InstanceStatus(ctx context.Context, instanceID string) (string, error) {
	server, err := h.getServer(ctx, instanceID)
	if err != nil {
		return "", err
	}
	return string(server.Status), nil
}

// WaitForReachable implements provider.Provider. It probes TCP port 22 until
// the instance accepts connections, ignoring transient dial failures, then
// settles briefly so sshd can finish initializing.
func (h *Hetzner) WaitForReachable(ctx context.Context, address string, timeout time.Duration) error {
	target := net.JoinHostPort(address, strconv.Itoa(sshPort))
	return retry.Poll(ctx, retry.PollConfig{
		Interval: reachablePollEvery,
		Timeout:  timeout,
		Settle:   reachableSettle,
	}, func(context.Context) (bool, error) {
		conn, err := net.DialTimeout("tcp", target, dialTimeout)
		if err != nil {
			return false, err
		}
		_ = conn.Close()
		return true, nil
	})
}

// ServerName derives the provider-visible server name. The timestamp suffix
// guarantees uniqueness across repeated provisioning of the same project.
func ServerName(projectName string, created time.Time) string {
	return fmt.Sprintf("clwd-%s-%d", projectName, created.Unix())
}

// ensureSSHKey uploads the local public key to the Hetzner project, reusing
// an existing key with matching material if present.
func (h *Hetzner) ensureSSHKey(ctx context.Context) (*hcloud.SSHKey, error) {
	if h.publicKey == "" {
		return nil, provider.NewConfigurationError(Kind, "no SSH public key available, generate one with: ssh-keygen -t ed25519")
	}

	keys, err := h.client.SSHKey.All(ctx)
	if err != nil {
		return nil, h.wrap(err, "failed to list SSH keys")
	}
	want := normalizeKey(h.publicKey)
	for _, key := range keys {
		if normalizeKey(key.PublicKey) == want {
			return key, nil
		}
	}

	key, _, err := h.client.SSHKey.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      fmt.Sprintf("clwd-%d", h.now().Unix()),
		PublicKey: h.publicKey,
		Labels:    map[string]string{"managed-by": "clwd"},
	})
	if err != nil {
		return nil, h.wrap(err, "failed to upload SSH key")
	}
	return key, nil
}

// getServer resolves an instance id to a live server, mapping malformed ids
// and missing servers to InstanceNotFound.
func (h *Hetzner) getServer(ctx context.Context, instanceID string) (*hcloud.Server, error) {
	id, err := strconv.ParseInt(instanceID, 10, 64)
	if err != nil {
		return nil, provider.NewInstanceNotFoundError(Kind, instanceID)
	}
	server, _, err := h.client.Server.GetByID(ctx, id)
	if err != nil {
		return nil, h.wrap(err, "failed to get server %s", instanceID)
	}
	if server == nil {
		return nil, provider.NewInstanceNotFoundError(Kind, instanceID)
	}
	return server, nil
}

// wrap classifies an hcloud API error into the shared taxonomy.
func (h *Hetzner) wrap(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	switch {
	case isQuotaExceeded(err):
		return provider.NewQuotaExceededError(Kind, "%s: %v", msg, err)
	case isUnauthorized(err):
		return provider.NewAuthenticationError(Kind, "%s: %v", msg, err)
	case isNotFound(err):
		return &provider.Error{Provider: Kind, Message: msg, Err: fmt.Errorf("%w: %v", provider.ErrInstanceNotFound, err)}
	default:
		return &provider.Error{Provider: Kind, Message: msg, Err: err}
	}
}

// normalizeKey reduces a public key to its type and material so keys compare
// equal regardless of trailing whitespace or comment differences.
func normalizeKey(key string) string {
	fields := strings.Fields(key)
	if len(fields) >= 2 {
		return fields[0] + " " + fields[1]
	}
	return strings.TrimSpace(key)
}

func regionCodes() string {
	return strings.Join([]string{"nbg1", "fsn1", "hel1", "ash", "hil"}, ", ")
}
