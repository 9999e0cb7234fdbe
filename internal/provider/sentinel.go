package provider

// SetupMarkerPath is the sentinel file the bootstrap script creates on the
// instance once setup finishes. The orchestrator polls for its existence;
// absence means "not ready yet", never an error. The path is a fixed
// contract between the cloud-init payload and the orchestrator.
const SetupMarkerPath = "/tmp/clwd-setup-complete"
