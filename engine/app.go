package engine

// App is the application the program drives. Update receives one event and
// returns the action to take; View paints the whole frame from current
// state. Both run on the program goroutine, never concurrently. The program
// never copies or retains app state; whatever Update mutates, View sees.
type App interface {
	Update(ev Event) Action
	View(f *Frame)
}
