package enum

// DispatchChannel is the transport a receipt message is handed to.
type DispatchChannel string

const (
	DispatchChannelWhatsApp DispatchChannel = "WHATSAPP"
	DispatchChannelEmail    DispatchChannel = "EMAIL"
)

func (c DispatchChannel) IsValid() bool {
	return c == DispatchChannelWhatsApp || c == DispatchChannelEmail
}

func (c DispatchChannel) String() string {
	return string(c)
}

// DispatchStatus is the outcome shown to the operator. Idle means nothing was attempted yet.
type DispatchStatus string

const (
	DispatchStatusIdle    DispatchStatus = "idle"
	DispatchStatusSuccess DispatchStatus = "success"
	DispatchStatusError   DispatchStatus = "error"
)

func (s DispatchStatus) IsValid() bool {
	switch s {
	case DispatchStatusIdle, DispatchStatusSuccess, DispatchStatusError:
		return true
	}
	return false
}

func (s DispatchStatus) String() string {
	return string(s)
}
