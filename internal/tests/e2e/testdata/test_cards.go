package testdata

// Credential tokens understood by the in-process processors the end-to-end
// suite runs against.
const (
	// Sandbox rules: see SandboxRules.
	SandboxApproved = "tok_sandbox_ok"
	SandboxDeclined = "tok_sandbox_decline"

	// Fake card bank.
	CardApproved          = "tok_visa"
	CardInsufficientFunds = "tok_nsf"
	CardCaptureFails      = "tok_capture_fail"
	CardBankDown          = "tok_bank_down"
)

const SandboxRules = "token == '" + SandboxDeclined + "' => Card declined by sandbox"
