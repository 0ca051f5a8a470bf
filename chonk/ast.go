package chonk

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

type BinaryExpr struct {
	Left     Expression
	Operator Token
	Right    Expression
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.Operator.Pos }

type UnaryExpr struct {
	Operator Token
	Right    Expression
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.Operator.Pos }

type GroupingExpr struct {
	Inner    Expression
	position Position
}

func (e *GroupingExpr) exprNode()     {}
func (e *GroupingExpr) Pos() Position { return e.position }

type ConstantExpr struct {
	Value    Literal
	position Position
}

func (e *ConstantExpr) exprNode()     {}
func (e *ConstantExpr) Pos() Position { return e.position }

type VariableExpr struct {
	Name Token
}

func (e *VariableExpr) exprNode()     {}
func (e *VariableExpr) Pos() Position { return e.Name.Pos }

type AssignExpr struct {
	Name  Token
	Value Expression
}

func (e *AssignExpr) exprNode()     {}
func (e *AssignExpr) Pos() Position { return e.Name.Pos }

// AugAssignExpr is a compound assignment such as `x += 1`.
type AugAssignExpr struct {
	Name     Token
	Operator Token
	Value    Expression
}

func (e *AugAssignExpr) exprNode()     {}
func (e *AugAssignExpr) Pos() Position { return e.Name.Pos }

// PrefixExpr increments or decrements a variable. Both `++x` and `x++`
// parse to this node.
type PrefixExpr struct {
	Operator Token
	Name     Token
}

func (e *PrefixExpr) exprNode()     {}
func (e *PrefixExpr) Pos() Position { return e.Operator.Pos }

// LogicalExpr is a short-circuiting && or ||.
type LogicalExpr struct {
	Left     Expression
	Operator Token
	Right    Expression
}

func (e *LogicalExpr) exprNode()     {}
func (e *LogicalExpr) Pos() Position { return e.Operator.Pos }

type CallExpr struct {
	Callee Expression
	// Paren is the closing parenthesis; its position is reported for call
	// errors.
	Paren Token
	Args  []Expression
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.Paren.Pos }
