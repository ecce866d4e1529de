package writepolicy

import "context"

/*
This file defines what a "write policy" is.

Every saved snapshot goes through a write policy on its way to the store.
Different hosts have different needs:
- Some want the file on disk before the app exits the save call (write-through)
- Some can't afford a slow store inside the frame loop (write-back)

Instead of hard-coding one behavior, we define an interface so we can plug in different strategies.
*/

/*
WritePolicy is the contract that all write policies must follow.
The engine does not care which policy is used. It simply calls these methods.
*/
type WritePolicy interface {

	/*
		OnWrite is called with every encoded snapshot. data must not be modified afterwards.
	*/
	OnWrite(ctx context.Context, key string, data []byte)

	/*
		Close is called when the memory is shutting down. Pending writes are finished first.
	*/
	Close()
}
