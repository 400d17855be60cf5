// Package golf runs a shared side-view golf round on top of the ball stepper.
//
// Every player owns one ball, identified by a secret identifier that is only
// kept as an xxh3 hash. A stroke launches the ball from where it currently is;
// once the ball's eventual rest position is known a settle job is scheduled
// for that moment, which stores the rest position so readers do not need to
// simulate. Stale settle jobs, those overtaken by a newer stroke, are ignored
// by comparing the ball's update counter.
//
// A round ends when its time is up or any ball has dropped into the hole;
// only then may a new level be created.
package golf
