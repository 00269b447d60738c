package models

// Host is one row of the tabular host description.
type Host struct {
	Name    string
	IPAddr  string
	MACAddr string
	Descr   string
}
