package component

// ContactSensor sizes the feet sensor used to detect platform contacts.
// A zero Width falls back to 90% of the body width.
type ContactSensor struct {
	Width     float64
	Height    float64
	BodyWidth float64
}

var ContactSensorComponent = NewComponent[ContactSensor]("contact_sensor")
