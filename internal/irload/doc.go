// Package irload reads IR documents written in YAML or CUE and builds them
// into an ir tree inside a freshly configured ir.Context.
//
// Both formats decode into the same Document structure:
//
//	allow_unregistered_dialects: false
//	threads: 0            # 0 default, 1 sequential, n caps workers
//	dialects: [...]       # extra dialects declared inline
//	root:
//	  op: builtin.module
//	  regions:
//	    - blocks:
//	        - label: entry
//	          args: [x]
//	          ops:
//	            - op: func.return
//	              operands: [x]
//
// Operands and successors refer to values and block labels by name. Names
// are global to the document and may be used before they are defined.
package irload
