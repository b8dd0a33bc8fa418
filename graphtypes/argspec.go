package graphtypes

// ArgSpec documents one constructor argument for the descriptive listing
// collaborator (spec §4.B, §6 "Listing collaborator"). It has no effect on
// resolution; Registry.Register simply threads it through to whatever
// listing.Sink is installed.
type ArgSpec struct {
	Name        string
	TypeName    string
	Description string
	Required    bool
}
