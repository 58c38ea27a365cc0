// Command handoff runs the nested spawn regression for handoff channels:
// a value sent by a grandchild task through a channel handle captured across
// two spawns must reach the receiver in main.
//
// Besides running the regression, handoff exports what the run communicated
// as MiGo types, communicating finite state machines and Graphviz graphs.
package main
