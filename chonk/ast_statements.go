package chonk

type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Statement
}

func (s *FunctionStmt) stmtNode()     {}
func (s *FunctionStmt) Pos() Position { return s.Name.Pos }

type ReturnStmt struct {
	Keyword Token
	// Value is nil for a bare `return;`.
	Value Expression
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.Keyword.Pos }

type DeleteStmt struct {
	Keyword Token
	Targets []Token
}

func (s *DeleteStmt) stmtNode()     {}
func (s *DeleteStmt) Pos() Position { return s.Keyword.Pos }

type WhileStmt struct {
	Keyword   Token
	Condition Expression
	Body      []Statement
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.Keyword.Pos }

type IfStmt struct {
	Keyword    Token
	Condition  Expression
	Consequent []Statement
	// Alternate is nil when there is no else branch.
	Alternate []Statement
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.Keyword.Pos }

type ExprStmt struct {
	Expr Expression
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.Expr.Pos() }

type EchoStmt struct {
	Keyword Token
	Value   Expression
}

func (s *EchoStmt) stmtNode()     {}
func (s *EchoStmt) Pos() Position { return s.Keyword.Pos }

type BreakStmt struct {
	Keyword Token
}

func (s *BreakStmt) stmtNode()     {}
func (s *BreakStmt) Pos() Position { return s.Keyword.Pos }

type ContinueStmt struct {
	Keyword Token
}

func (s *ContinueStmt) stmtNode()     {}
func (s *ContinueStmt) Pos() Position { return s.Keyword.Pos }
