// codegen is a library that creates syntax tree nodes for the instrumentation
// passes in specific repeatable ways. Any function that creates a new node for
// insertion into the tree should be added here. When implementing functions
// for this library, the following rules should apply:
//
// 1. Any nodes consumed as inputs must be defensively cloned before being
// returned as part of an output. If a node value is shared between two tree
// positions, the exclusive-ownership rule of the passes is broken.
// 2. Every exported function gets a comment header describing what it builds.
// 3. Builders must not allocate probe identifiers or touch any pass state;
// they receive identifiers and produce nodes, nothing else.
package codegen
