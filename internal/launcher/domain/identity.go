package domain

// Identity is the authenticated player session required to launch
type Identity struct {
	UUID        string `yaml:"uuid" json:"uuid"`
	Name        string `yaml:"name" json:"name"`
	AccessToken string `yaml:"accessToken" json:"accessToken"`
}

// Valid reports whether the identity can be used for a launch
func (i *Identity) Valid() bool {
	return i != nil && i.UUID != "" && i.Name != ""
}
