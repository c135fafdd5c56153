package main

// Exam scheduling API.
//
// /v1/exam-wizards drives the scheduling wizard; /debug/vars exposes build info and commit counters.
func main() {
	startWithDig()
}
