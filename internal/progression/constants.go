package progression

// XPCurveBase is the multiplier of the quadratic XP curve: level² × XPCurveBase
const XPCurveBase = 50
