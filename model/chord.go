package model

type Notes = []uint8

type Chord struct {
	// milliseconds from the start of the file
	Offset uint32
	Notes  Notes
}
