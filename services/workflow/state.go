package workflow

// State is one step of the guided car-entry conversation. The order is fixed:
// every text state advances to the next one until PHOTOS, which loops until
// an explicit done event, then CONFIRM terminates the run.
type State int

const (
	StateBrand State = iota
	StateModel
	StateYear
	StateLicensePlate
	StateCategory
	StateEngineCapacity
	StateHorsepower
	StateFuelType
	StateTransmission
	StateFuelConsumption
	StateDoors
	StateSeats
	StateColor
	StateDailyPrice
	StateDeposit
	StateMileage
	StateFeatures
	StateDescription
	StatePhotos
	StateConfirm
)

var stateNames = map[State]string{
	StateBrand:           "BRAND",
	StateModel:           "MODEL",
	StateYear:            "YEAR",
	StateLicensePlate:    "LICENSE_PLATE",
	StateCategory:        "CATEGORY",
	StateEngineCapacity:  "ENGINE_CAPACITY",
	StateHorsepower:      "HORSEPOWER",
	StateFuelType:        "FUEL_TYPE",
	StateTransmission:    "TRANSMISSION",
	StateFuelConsumption: "FUEL_CONSUMPTION",
	StateDoors:           "DOORS",
	StateSeats:           "SEATS",
	StateColor:           "COLOR",
	StateDailyPrice:      "DAILY_PRICE",
	StateDeposit:         "DEPOSIT",
	StateMileage:         "MILEAGE",
	StateFeatures:        "FEATURES",
	StateDescription:     "DESCRIPTION",
	StatePhotos:          "PHOTOS",
	StateConfirm:         "CONFIRM",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// EventType classifies inbound workflow events. The transport adapter maps
// messenger updates onto these; the machine never sees the transport.
type EventType int

const (
	// EventText is a free-text answer for the current step.
	EventText EventType = iota
	// EventSelect is a pick from the choice set the machine offered.
	EventSelect
	// EventPhoto carries one staged photo file.
	EventPhoto
	// EventDone closes the PHOTOS loop.
	EventDone
)

// Event is one input to the state machine.
type Event struct {
	Type EventType
	Text string // EventText
	// Choice is the ID of the selected option (EventSelect).
	Choice string
	// PhotoPath is a local staging path for the uploaded photo (EventPhoto).
	PhotoPath string
}

// Choice is one option of a selection step.
type Choice struct {
	ID    string
	Label string
}

// Reply is an outbound effect: a message, optionally with a choice keyboard.
// Edit asks the transport to replace the message that carried the selection.
type Reply struct {
	Text    string
	Choices []Choice
	Edit    bool
}

// Selection choice IDs offered by the CONFIRM state.
const (
	choiceCommit = "save"
	choiceAbort  = "cancel"
)
