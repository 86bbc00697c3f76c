package models

// Persona is a fixed argumentative voice selectable for a debate side.
// Style is free text injected verbatim into generation prompts.
type Persona struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
	Style       string `json:"style" bson:"style"`
}
