package procedure

import "github.com/gin-gonic/gin"

// MethodGeo takes no params, anything passed is ignored.
const MethodGeo = "geo"

func (s *Server) handleGeo(c *gin.Context, req rpcRequest) {
	result, err := s.resolver.Resolve(c.Request.Context())
	if err != nil {
		writeError(c, req.ID, errorCode(err), err.Error())
		return
	}
	writeResult(c, req.ID, result)
}
