package types

// Environment represents the deployment environment a report refers to
type Environment string

const (
	EnvironmentProd  Environment = "Prod"
	EnvironmentDev   Environment = "Dev"
	EnvironmentStage Environment = "Stage"
)

// String returns the string representation of the environment
func (e Environment) String() string {
	return string(e)
}

// IsValid checks if the environment is valid
func (e Environment) IsValid() bool {
	switch e {
	case EnvironmentProd, EnvironmentDev, EnvironmentStage:
		return true
	default:
		return false
	}
}

// Product represents the product area a report refers to
type Product string

const (
	ProductDataloader Product = "Dataloader"
	ProductProductX   Product = "ProductX"
	ProductOther      Product = "Other"
)

// String returns the string representation of the product
func (p Product) String() string {
	return string(p)
}

// IsValid checks if the product is valid
func (p Product) IsValid() bool {
	switch p {
	case ProductDataloader, ProductProductX, ProductOther:
		return true
	default:
		return false
	}
}

// TicketKind represents the issue type of a tracker ticket
type TicketKind string

const (
	TicketKindBug   TicketKind = "Bug"
	TicketKindStory TicketKind = "Story"
	TicketKindTask  TicketKind = "Task"
	TicketKindEpic  TicketKind = "Epic"
)

// String returns the string representation of the ticket kind
func (k TicketKind) String() string {
	return string(k)
}

// IsValid checks if the ticket kind is valid
func (k TicketKind) IsValid() bool {
	switch k {
	case TicketKindBug, TicketKindStory, TicketKindTask, TicketKindEpic:
		return true
	default:
		return false
	}
}
