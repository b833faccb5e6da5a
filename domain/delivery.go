package domain

// Delivery is the receiveMessage event pushed to live connections.
// Profiles are nil when they could not be resolved.
type Delivery struct {
	Message   Message
	Sender    *Profile
	Recipient *Profile
}
