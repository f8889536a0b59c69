package compiler

import "github.com/xirelogy/go-reckon/internal/bytecode"

type Chunk = bytecode.Chunk
