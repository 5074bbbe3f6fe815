// Package discovery builds the descriptor set of a generation run from schema
// files.
//
// A schema file is YAML (JSON is accepted as well) listing model types:
//
//	types:
//	  - name: fr.maven.dto.bean.Bean2
//	    fields:
//	      - name: bean
//	        type: fr.maven.dto.bean.Bean
//	      - name: beans
//	        type: java.util.List<fr.maven.dto.bean.Bean>
//	      - name: COUNT
//	        type: int
//	        static: true
//
// Field types are written the way they are declared: dotted qualified names,
// type arguments in angle brackets and trailing [] per array dimension. A
// name without dots lives in the empty namespace, which is where primitives
// are. Static fields are dropped here and never reach the emitter.
package discovery
